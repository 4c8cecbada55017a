package jobsource

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanDescription_PlainTextPassesThrough(t *testing.T) {
	assert.Equal(t, "Build Go services", CleanDescription("Build   Go  services"))
}

func TestCleanDescription_StripsMarkup(t *testing.T) {
	raw := `<div><h2>About the role</h2><p>We build <b>Go</b> services.</p>
<script>trackVisit();</script>
<ul><li>5+ years Go</li><li>PostgreSQL</li></ul></div>`

	got := CleanDescription(raw)

	assert.Contains(t, got, "About the role")
	assert.Contains(t, got, "We build Go services.")
	assert.Contains(t, got, "5+ years Go")
	assert.NotContains(t, got, "trackVisit")
	assert.NotContains(t, got, "<")
}

func TestCleanDescription_ListItemsStaySeparated(t *testing.T) {
	raw := "<ul><li>Go</li><li>Kubernetes</li></ul>"
	got := CleanDescription(raw)
	assert.Contains(t, got, "Go\n")
	assert.Contains(t, got, "Kubernetes")
}

func TestCleanDescription_Empty(t *testing.T) {
	assert.Equal(t, "", CleanDescription(""))
}
