package templates

import (
	"fmt"
	"html"
	"strings"

	"github.com/leadtrackr/lead-tracker-api/models"
)

// RenderFollowUpDigestEmail generates branded HTML listing the leads whose
// follow-up is due today. All lead fields are HTML-escaped before rendering.
func RenderFollowUpDigestEmail(leads []models.Lead) string {
	var rows strings.Builder
	for _, lead := range leads {
		rows.WriteString(fmt.Sprintf(`
      <tr>
        <td style="padding: 8px 12px; border-bottom: 1px solid rgba(255,255,255,0.1);">%s</td>
        <td style="padding: 8px 12px; border-bottom: 1px solid rgba(255,255,255,0.1);">%s</td>
        <td style="padding: 8px 12px; border-bottom: 1px solid rgba(255,255,255,0.1);">%s</td>
        <td style="padding: 8px 12px; border-bottom: 1px solid rgba(255,255,255,0.1);">%s</td>
      </tr>`,
			html.EscapeString(lead.CompanyName),
			html.EscapeString(lead.ContactPerson),
			html.EscapeString(lead.Assignee),
			html.EscapeString(lead.Status),
		))
	}

	return fmt.Sprintf(`<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Strict//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd">
<html xmlns="http://www.w3.org/1999/xhtml">
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1, minimum-scale=1, maximum-scale=1">
  <title>Follow-ups due today</title>
  <style type="text/css">
    body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 0; padding: 0; background-color: #0a0a0f; }
    .container { max-width: 600px; margin: 0 auto; background-color: #12121f; }
    .header { background: linear-gradient(135deg, #667eea 0%%, #764ba2 100%%); padding: 40px 30px; text-align: center; }
    .header h1 { color: #fff; margin: 0; font-size: 24px; font-weight: 700; }
    .content { padding: 40px 30px; color: #e5e7eb; line-height: 1.6; font-size: 15px; }
    table { width: 100%%; border-collapse: collapse; }
    th { text-align: left; padding: 8px 12px; color: #9ca3af; font-size: 12px; text-transform: uppercase; }
    .footer { padding: 30px; text-align: center; color: #6b7280; font-size: 12px; border-top: 1px solid rgba(255,255,255,0.1); }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>Follow-ups due today</h1>
    </div>
    <div class="content">
      <table>
        <tr><th>Company</th><th>Contact</th><th>Assignee</th><th>Status</th></tr>%s
      </table>
    </div>
    <div class="footer">
      <p>&copy; Lead Tracker</p>
    </div>
  </div>
</body>
</html>`, rows.String())
}
