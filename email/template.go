package email

import (
	"fmt"
	"html"
	"strings"

	"jumpstart-backend/models"
)

// NewsletterMessage builds the notification email for a published
// newsletter. baseURL is the public base URL of the site, used for the
// download link and the unsubscribe footer.
func NewsletterMessage(baseURL string, newsletter *models.Newsletter) (subject, body string) {
	subject = fmt.Sprintf("New Newsletter: %s", newsletter.Title)

	base := strings.TrimSuffix(baseURL, "/")
	downloadURL := fmt.Sprintf("%s/api/newsletters/%s/download", base, newsletter.ID)
	unsubscribeURL := base + "/unsubscribe"

	var b strings.Builder
	b.WriteString(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">`)
	b.WriteString(`<h2 style="color: #fea434;">New Newsletter Available!</h2>`)
	b.WriteString(`<p>We're excited to share our latest newsletter with you:</p>`)
	b.WriteString(fmt.Sprintf("<h3>%s</h3>", html.EscapeString(newsletter.Title)))
	if newsletter.Description != "" {
		b.WriteString(fmt.Sprintf("<p>%s</p>", html.EscapeString(newsletter.Description)))
	}
	if newsletter.PDF != nil {
		b.WriteString(`<div style="text-align: center; margin: 20px 0;">`)
		b.WriteString(fmt.Sprintf(`<a href="%s" style="background-color: #fea434; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">Download Newsletter</a>`, downloadURL))
		b.WriteString(`</div>`)
	}
	b.WriteString(`<p>Thank you for being part of our community!</p>`)
	b.WriteString(`<hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">`)
	b.WriteString(fmt.Sprintf(`<p style="font-size: 12px; color: #777;">If you no longer wish to receive these emails, you can <a href="%s">unsubscribe here</a>.</p>`, unsubscribeURL))
	b.WriteString(`</div>`)

	return subject, b.String()
}
