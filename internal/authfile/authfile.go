// SPDX-License-Identifier: MPL-2.0

// Package authfile reads and writes the flat key=value authorization file
// used by the platform command-line tools.
package authfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Field keys as they appear on disk. The on-disk format is a platform
// contract shared with every other tool that reads the file, so these
// names are not configurable.
const (
	KeyUser                = "user"
	KeyPassword            = "password"
	KeyDomain              = "domain"
	KeyServer              = "server"
	KeyRemoteConnectString = "remoteConnectString"
	KeyRemoteCopyString    = "remoteCopyString"

	// DefaultFileName is the per-user dotfile holding the credentials.
	DefaultFileName = ".isauth"

	// filePerm keeps the file private to the owning user; it holds an
	// encrypted password but also tier addresses.
	filePerm = 0o600
)

// knownKeys lists every key the parser recognizes. Lines that do not start
// with one of these followed by '=' are skipped, which tolerates blank
// lines and hand-added comments in existing files.
var knownKeys = []string{
	KeyUser,
	KeyPassword,
	KeyDomain,
	KeyServer,
	KeyRemoteConnectString,
	KeyRemoteCopyString,
}

// Fields holds the parsed contents of an authorization file. The password
// value is the platform-encrypted form, never plaintext.
type Fields struct {
	User                string
	Password            string
	Domain              string
	Server              string
	RemoteConnectString string
	RemoteCopyString    string
}

// DefaultPath returns the per-user default authorization file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, DefaultFileName), nil
}

// Read parses the authorization file at path. Values are taken as the
// substring after the FIRST '=' on the line: encrypted passwords routinely
// contain '=' padding, so splitting on every delimiter would truncate them.
// A missing file is reported via the wrapped os.ErrNotExist.
func Read(path string) (*Fields, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read authorization file %s: %w", path, err)
	}

	f := &Fields{}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		key, value, ok := matchKnownKey(line)
		if !ok {
			continue
		}
		switch key {
		case KeyUser:
			f.User = value
		case KeyPassword:
			f.Password = value
		case KeyDomain:
			f.Domain = value
		case KeyServer:
			f.Server = value
		case KeyRemoteConnectString:
			f.RemoteConnectString = value
		case KeyRemoteCopyString:
			f.RemoteCopyString = value
		}
	}
	return f, nil
}

// matchKnownKey reports whether line is a "<known key>=<value>" line and
// returns the key and the value after the first '='.
func matchKnownKey(line string) (key, value string, ok bool) {
	for _, k := range knownKeys {
		if strings.HasPrefix(line, k+"=") {
			return k, line[len(k)+1:], true
		}
	}
	return "", "", false
}

// Write serializes the four core fields in their fixed order and replaces
// the file contents. Remote connection templates are never written here;
// they are added later via Append.
func Write(path string, f *Fields) error {
	var b strings.Builder
	b.WriteString(KeyUser + "=" + f.User + "\n")
	b.WriteString(KeyPassword + "=" + f.Password + "\n")
	b.WriteString(KeyDomain + "=" + f.Domain + "\n")
	b.WriteString(KeyServer + "=" + f.Server + "\n")

	if err := os.WriteFile(path, []byte(b.String()), filePerm); err != nil {
		return fmt.Errorf("failed to write authorization file %s: %w", path, err)
	}
	return nil
}

// Append adds lines to an authorization file, creating it when absent. It
// is used to attach remote-connection command templates; off-host that can
// happen before any credentials exist.
func Append(path string, lines ...string) error {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePerm)
	if err != nil {
		return fmt.Errorf("failed to open authorization file %s for append: %w", path, err)
	}
	defer file.Close()

	for _, line := range lines {
		if _, err := file.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("failed to append to authorization file %s: %w", path, err)
		}
	}
	return nil
}
