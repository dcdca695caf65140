package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStars(t *testing.T) {
	assert.Equal(t, "★★★☆☆", stars(3))
	assert.Equal(t, "☆☆☆☆☆", stars(-1))
	assert.Equal(t, "★★★★★", stars(9))
}

func TestBar(t *testing.T) {
	assert.Equal(t, "", bar(5, 0, 10))
	assert.Equal(t, "█████", bar(1, 2, 10))
	assert.Equal(t, "██████████", bar(4, 4, 10))
}

func TestTitleFallsBackToID(t *testing.T) {
	assert.Equal(t, "abc", title("", "abc"))
	assert.Equal(t, "Dune", title("Dune", "abc"))
}

func TestRootRegistersCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"login", "logout", "progress", "rating", "bookmark", "analytics"} {
		assert.True(t, names[want], want)
	}
}
