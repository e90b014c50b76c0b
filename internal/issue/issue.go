// SPDX-License-Identifier: EPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	AuthFileNotFoundId Id = iota + 1
	HostRequiredId
	RemoteNotConfiguredId
	EncryptFailedId
	InventoryMalformedId
)

type MarkdownMsg string

type Issue struct {
	id    Id          // ID used to look up the issue
	mdMsg MarkdownMsg // Markdown text that will be rendered
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) Render(stylePath string) (string, error) {
	return render(string(i.mdMsg), stylePath)
}

var (
	render = glamour.Render

	authFileNotFoundIssue = &Issue{
		id: AuthFileNotFoundId,
		mdMsg: `
# No authorization file found!

A credential value was requested but the authorization file does not exist.

## Things you can try:
- Create one on the platform host:
~~~
$ isenv authfile create
~~~

- Or point at an existing file:
~~~
$ isenv --auth-file /path/to/.isauth info
~~~`,
	}

	hostRequiredIssue = &Issue{
		id: HostRequiredId,
		mdMsg: `
# This operation requires the platform host!

Creating an authorization file runs the platform's encryption command,
which only exists on the machine where the platform is installed.

## Things you can try:
- Log into the platform host and run the command there
- Check that the installation root is correct:
~~~
$ isenv --install-root /opt/IBM/InformationServer authfile create
~~~`,
	}

	remoteNotConfiguredIssue = &Issue{
		id: RemoteNotConfiguredId,
		mdMsg: `
# Remote execution is not configured!

This process is not running on the platform host and the authorization
file has no remote connection details, so there is no way to reach the
platform.

## Things you can try:
- Add SSH connection details:
~~~
$ isenv remote add --type ssh --host ishost --user isuser --key ~/.ssh/id_rsa
~~~

- Or container-exec details:
~~~
$ isenv remote add --type docker --container isserver
~~~`,
	}

	encryptFailedIssue = &Issue{
		id: EncryptFailedId,
		mdMsg: `
# Password encryption failed!

The platform's encrypt command exited with an error, so no authorization
file was written.

## Things you can try:
- Verify the encryption command works by itself:
~~~
$ <install-root>/ASBNode/bin/encrypt.sh test
~~~

- Check that the installation root points at a complete installation`,
	}

	inventoryMalformedIssue = &Issue{
		id: InventoryMalformedId,
		mdMsg: `
# Could not read the install inventory!

The platform's install-registry XML is missing required entries. Version
and tier information will be resolved from the authorization file instead,
and the platform version reports as "unknown".

## Things you can try:
- Check the registry file under the installation root (Version.xml)
- Verify the installation completed successfully`,
	}

	issues = map[Id]*Issue{
		authFileNotFoundIssue.Id():    authFileNotFoundIssue,
		hostRequiredIssue.Id():        hostRequiredIssue,
		remoteNotConfiguredIssue.Id(): remoteNotConfiguredIssue,
		encryptFailedIssue.Id():       encryptFailedIssue,
		inventoryMalformedIssue.Id():  inventoryMalformedIssue,
	}
)

func Values() []*Issue {
	vals := maps.Values(issues)
	slices.SortFunc(vals, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return vals
}

func Get(id Id) *Issue {
	return issues[id]
}
