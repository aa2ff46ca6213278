package version

import (
	"runtime"
	"strings"

	"github.com/tonkit/tonkit/common"
	"github.com/tonkit/tonkit/common/check"
)

// Set with -ldflags "-X github.com/tonkit/tonkit/common/version.gitTag=...".
var (
	gitTag    string
	gitCommit string
)

const unknownVersion = "<unknown>"

const versionTmpl = `{{ .Title }}
 Version:	{{ .Version }}
 OS/Arch: 	{{ .OS }}/{{ .Arch }}
 Git commit:	{{ .Commit }}`

func GetVersion() string {
	if gitTag == "" {
		return unknownVersion
	}
	return strings.SplitN(gitTag, "-", 2)[0]
}

func BuildVersionString(appTitle string) string {
	s, err := common.ParseTemplate(versionTmpl, map[string]any{
		"Title":   appTitle,
		"Version": GetVersion(),
		"OS":      runtime.GOOS,
		"Arch":    runtime.GOARCH,
		"Commit":  gitCommit,
	})
	check.PanicIfErr(err)
	return s
}
