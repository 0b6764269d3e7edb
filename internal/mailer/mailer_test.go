package mailer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderUserWelcome(t *testing.T) {
	msg, err := render(TemplateUserWelcome, map[string]any{"name": "Alice", "userID": int64(7)})
	require.NoError(t, err)
	assert.Equal(t, "Welcome to Book Reviews!", msg.subject)
	assert.Contains(t, msg.plainBody, "Hi Alice,")
	assert.Contains(t, msg.htmlBody, "Your user ID number is 7.")
}

func TestRenderReviewCreated(t *testing.T) {
	msg, err := render(TemplateReviewCreated, map[string]any{
		"ownerName":    "Alice",
		"reviewerName": "Bob",
		"bookTitle":    "Dune",
		"rating":       4,
		"reviewText":   "<b>Spice</b> must flow.",
	})
	require.NoError(t, err)
	assert.Equal(t, "New review of Dune", msg.subject)
	assert.Contains(t, msg.plainBody, `Bob rated "Dune" 4 out of 5`)
	assert.True(t, strings.Contains(msg.htmlBody, "&lt;b&gt;Spice&lt;/b&gt;"), "review text must be escaped in html")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, err := render("missing.tmpl", nil)
	assert.Error(t, err)
}
