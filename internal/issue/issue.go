// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

// Guide ids. Zero means "no guide".
const (
	ToolNotFoundId Id = iota + 1
	StepFailedId
	InputArtifactMissingId
	ConfigLoadFailedId
	InvalidModeId
	ChecksumMismatchId
)

type (
	// Id identifies a guide in the catalog.
	Id int

	// MarkdownMsg is the guide body in markdown.
	MarkdownMsg string

	// HttpLink is a documentation URL.
	HttpLink string

	// Issue is a markdown troubleshooting guide.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		extLinks []HttpLink
	}
)

func (i *Issue) Id() Id { return i.id }

func (i *Issue) MarkdownMsg() MarkdownMsg { return i.mdMsg }

func (i *Issue) ExtLinks() []HttpLink { return slices.Clone(i.extLinks) }

// Markdown returns the guide followed by its links section.
func (i *Issue) Markdown() string {
	var sb strings.Builder
	sb.WriteString(string(i.mdMsg))
	if len(i.extLinks) > 0 {
		sb.WriteString("\n\n## See also\n")
		for _, link := range i.extLinks {
			sb.WriteString("- <" + string(link) + ">\n")
		}
	}
	return sb.String()
}

// Render renders the guide for a terminal with the named glamour style
// ("dark", "light", "notty", "auto").
func (i *Issue) Render(stylePath string) (string, error) {
	return render(i.Markdown(), stylePath)
}

var (
	render = glamour.Render

	toolNotFoundIssue = &Issue{
		id: ToolNotFoundId,
		mdMsg: `
# A required program could not be started

niprov drives external tools and one of them is missing from PATH or is not executable.

## Programs used
- release builds: 'mkdir', 'curl', 'tar', 'cp' and the toolchain's 'native-image'
- nightly builds: additionally 'git' and a shell for the final 'mx native-image' call

## Things you can try
- Install the missing program with your package manager
- Check that 'PATH' is exported to niprov
- Use the embedded shell if no '/bin/sh' is available:
~~~cue
shell: "virtual"
~~~`,
		extLinks: []HttpLink{"https://www.graalvm.org/latest/reference-manual/native-image/"},
	}

	stepFailedIssue = &Issue{
		id: StepFailedId,
		mdMsg: `
# A provisioning step failed

The pipeline stops at the first failing step and leaves the workspace as it is.
Completed steps are skipped next time because their output already exists.

## Things you can try
- Re-run with '--verbose' to see every command and its duration
- Preview the remaining work:
~~~
$ niprov plan
~~~
- A download or extraction interrupted half way leaves a partial file behind; start fresh with:
~~~
$ niprov clean
~~~`,
	}

	inputArtifactMissingIssue = &Issue{
		id: InputArtifactMissingId,
		mdMsg: `
# Input artifact not found

native-image compiles a jar that must already exist in the working directory.

## Things you can try
- Build the jar first, then run niprov from the directory that contains it
- Point niprov at it explicitly:
~~~
$ niprov build --input target/app.jar
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Configuration could not be loaded

niprov reads 'niprov.cue' in the working directory, then 'config.cue' in the user config directory.

## Things you can try
- Show where niprov looks and what it resolved:
~~~
$ niprov config path
$ niprov config show
~~~
- Write a fresh file with every default spelled out:
~~~
$ niprov config init
~~~`,
		extLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	invalidModeIssue = &Issue{
		id: InvalidModeId,
		mdMsg: `
# Unrecognized build mode

'NIPROV_NIGHTLY' selects a source build when it is set to an empty value or a true boolean
('1', 't', 'true'), and a release build when unset or set to a false boolean ('0', 'f', 'false').

## Things you can try
~~~
$ NIPROV_NIGHTLY=1 niprov build
$ niprov build --mode release
~~~`,
	}

	checksumMismatchIssue = &Issue{
		id: ChecksumMismatchId,
		mdMsg: `
# Downloaded archive does not match its pinned checksum

The file is kept in the workspace so it can be inspected.

## Things you can try
- Remove the workspace and download again:
~~~
$ niprov clean
~~~
- If the pins were changed on purpose, update 'checksums' in the configuration`,
	}

	issues = map[Id]*Issue{
		toolNotFoundIssue.Id():         toolNotFoundIssue,
		stepFailedIssue.Id():           stepFailedIssue,
		inputArtifactMissingIssue.Id(): inputArtifactMissingIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
		invalidModeIssue.Id():          invalidModeIssue,
		checksumMismatchIssue.Id():     checksumMismatchIssue,
	}
)

// Values returns every guide ordered by id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, is := range issues {
		out = append(out, is)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return out
}

// Get returns the guide for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
