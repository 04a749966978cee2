package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	_ "github.com/squadboard/squadboard/testing"
)

func TestInTestModeSetByTestPackage(t *testing.T) {
	// The blank import above sets SQUADBOARD_TEST_MODE before any test
	// in this binary runs.
	assert.True(t, InTestMode())
}

func TestRefreshTestMode(t *testing.T) {
	t.Setenv("SQUADBOARD_TEST_MODE", "0")
	RefreshTestMode()
	assert.False(t, InTestMode())

	t.Setenv("SQUADBOARD_TEST_MODE", "1")
	RefreshTestMode()
	assert.True(t, InTestMode())
}
