package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo(t *testing.T) {
	ver, commit, date := Info()
	assert.Equal(t, Version, ver)
	assert.Equal(t, GitCommit, commit)
	assert.Equal(t, BuildDate, date)
}

func TestString(t *testing.T) {
	s := String()
	assert.Contains(t, s, "scholardoc version "+Version)
	assert.Contains(t, s, "Commit: "+GitCommit)
	assert.Contains(t, s, "Date: "+BuildDate)
}
