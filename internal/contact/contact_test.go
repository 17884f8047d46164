package contact

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "15551234567", NormalizePhone("+1 (555) 123-4567"))
	assert.Equal(t, "79161234567", NormalizePhone("+7 916 123-45-67"))
	assert.Equal(t, "", NormalizePhone("нет номера"))
}

func TestResolveWithPhoneAndEmail(t *testing.T) {
	info := Resolve("Ana", "+1 (555) 123-4567", "ana@example.com")

	assert.True(t, info.HasContact)
	assert.Equal(t, "+1 (555) 123-4567", info.Phone)
	assert.Contains(t, info.WhatsAppURL, "https://wa.me/15551234567?text=")
	assert.Contains(t, info.WhatsAppURL, "Hi+Ana%2C+I%27d+like+to+discuss+our+skill+swap%21")

	assert.Equal(t, "ana@example.com", info.Email)
	assert.Contains(t, info.MailtoURL, "mailto:ana@example.com?subject=Skill+Swap+Discussion")
	assert.Contains(t, info.MailtoURL, "&body=")
}

func TestResolvePhoneOnly(t *testing.T) {
	info := Resolve("Boris", "89261234567", "")

	assert.True(t, info.HasContact)
	assert.NotEmpty(t, info.WhatsAppURL)
	assert.Empty(t, info.Email)
	assert.Empty(t, info.MailtoURL)
}

func TestResolveEmailOnly(t *testing.T) {
	info := Resolve("Boris", "   ", "boris@example.com")

	assert.True(t, info.HasContact)
	assert.Empty(t, info.Phone)
	assert.Empty(t, info.WhatsAppURL)
	assert.NotEmpty(t, info.MailtoURL)
}

func TestResolveNoContact(t *testing.T) {
	info := Resolve("Boris", "", "")

	assert.False(t, info.HasContact)
	assert.Empty(t, info.Phone)
	assert.Empty(t, info.WhatsAppURL)
	assert.Empty(t, info.Email)
	assert.Empty(t, info.MailtoURL)
}
