package absence

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"SiteIntern-backend/internal/platform/logging"
)

func TestNoteFor(t *testing.T) {
	fr := NoteFor("fr", logging.Discard())
	en := NoteFor("en", logging.Discard())
	ar := NoteFor("ar", logging.Discard())

	assert.Equal(t, defaultNote.Other, fr)
	assert.Contains(t, en, "detected automatically")
	assert.NotEqual(t, fr, ar)
	assert.NotEmpty(t, ar)

	// unsupported or malformed tags fall back to French
	assert.Equal(t, fr, NoteFor("de", logging.Discard()))
	assert.Equal(t, fr, NoteFor("!!", logging.Discard()))
}
