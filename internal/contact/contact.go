package contact

import (
	"fmt"
	"net/url"
	"strings"
)

// Info представляет доступные способы связи с участником обмена.
// Если нет ни телефона, ни email, HasContact = false — явный результат
// "нет контактной информации", а не пустой набор кнопок.
type Info struct {
	HasContact  bool   `json:"has_contact"`
	Phone       string `json:"phone,omitempty"`        // цель для tel:
	WhatsAppURL string `json:"whatsapp_url,omitempty"` // диплинк с приветствием
	Email       string `json:"email,omitempty"`
	MailtoURL   string `json:"mailto_url,omitempty"` // mailto: с темой и телом
}

// Resolve строит контактные ссылки для пользователя name с опциональными
// телефоном и email. Телефон для мессенджера нормализуется до одних цифр.
func Resolve(name, phoneNumber, email string) Info {
	info := Info{}

	if strings.TrimSpace(phoneNumber) != "" {
		greeting := fmt.Sprintf("Hi %s, I'd like to discuss our skill swap!", name)
		info.HasContact = true
		info.Phone = phoneNumber
		info.WhatsAppURL = fmt.Sprintf("https://wa.me/%s?text=%s",
			NormalizePhone(phoneNumber), url.QueryEscape(greeting))
	}

	if strings.TrimSpace(email) != "" {
		subject := "Skill Swap Discussion"
		body := fmt.Sprintf("Hi %s,\n\nI'd like to discuss our skill swap arrangement.\n\nBest regards", name)
		info.HasContact = true
		info.Email = email
		info.MailtoURL = fmt.Sprintf("mailto:%s?subject=%s&body=%s",
			email, url.QueryEscape(subject), url.QueryEscape(body))
	}

	return info
}

// NormalizePhone убирает из номера всё, кроме цифр
func NormalizePhone(phoneNumber string) string {
	var b strings.Builder
	for _, r := range phoneNumber {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
