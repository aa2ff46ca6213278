package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildVersionString(t *testing.T) {
	t.Parallel()

	s := BuildVersionString("tonkit")
	assert.Contains(t, s, "tonkit\n")
	assert.Contains(t, s, "Version:\t"+unknownVersion)
	assert.Contains(t, s, runtime.GOOS+"/"+runtime.GOARCH)
}
