package email

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"
	"time"

	"instareview-reports-go/internal/logger"
	"instareview-reports-go/internal/types"
)

// implicitTLSPort is the SMTPS port where the relay expects a TLS
// handshake before any SMTP traffic; smtp.SendMail only speaks
// plaintext/STARTTLS, so 465 needs its own dial path.
const implicitTLSPort = 465

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string

	// ImplicitTLS forces the SMTPS dial path. NewSender turns it on
	// automatically for port 465.
	ImplicitTLS bool
}

// Sender delivers the weekly report email over an SMTP relay.
type Sender struct {
	cfg Config

	// tlsConfig is swappable for tests; nil verifies against cfg.Host.
	tlsConfig *tls.Config
}

func NewSender(cfg Config) *Sender {
	if cfg.Port == implicitTLSPort {
		cfg.ImplicitTLS = true
	}
	return &Sender{cfg: cfg}
}

type mailData struct {
	CompanyName string
	ReportURL   string
	Year        int
}

// SendReport emails the signed download link to the company's recipient.
func (s *Sender) SendReport(profile types.CompanyProfile, reportURL string, log *logger.Logger) error {
	if profile.Email == "" {
		return fmt.Errorf("company %s has no recipient email", profile.ID)
	}

	name := profile.CompanyName
	if name == "" {
		name = "Your Company"
	}
	data := mailData{CompanyName: name, ReportURL: reportURL, Year: time.Now().Year()}

	var htmlBody bytes.Buffer
	if err := htmlTmpl.Execute(&htmlBody, data); err != nil {
		return fmt.Errorf("render email html: %w", err)
	}
	var textBody bytes.Buffer
	if err := textTmpl.Execute(&textBody, data); err != nil {
		return fmt.Errorf("render email text: %w", err)
	}

	subject := fmt.Sprintf("Your Weekly InstaReview Report is Ready - %s", name)
	msg := buildMessage(s.cfg.From, profile.Email, subject, textBody.String(), htmlBody.String())

	if err := s.send(profile.Email, msg); err != nil {
		return fmt.Errorf("send to %s: %w", profile.Email, err)
	}

	log.WithField("recipient", profile.Email).Info("report email sent")
	return nil
}

func (s *Sender) send(to string, msg []byte) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if !s.cfg.ImplicitTLS {
		return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, msg)
	}

	tlsCfg := s.tlsConfig
	if tlsCfg == nil {
		tlsCfg = &tls.Config{ServerName: s.cfg.Host}
	}
	conn, err := tls.Dial("tcp", addr, tlsCfg)
	if err != nil {
		return err
	}
	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer c.Close()

	if s.cfg.Username != "" {
		if err := c.Auth(auth); err != nil {
			return err
		}
	}
	if err := c.Mail(s.cfg.From); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

// buildMessage assembles a multipart/alternative MIME message with plain
// text and HTML parts.
func buildMessage(from, to, subject, textBody, htmlBody string) []byte {
	const boundary = "instareview-report-boundary"
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(textBody)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(htmlBody)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return b.Bytes()
}

var htmlTmpl = template.Must(template.New("report-email").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <style>
    body { font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; background: #f8fafc; margin: 0; }
    .email-container { max-width: 600px; margin: 0 auto; background: white; }
    .header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); padding: 40px 30px; text-align: center; }
    .header h1 { color: white; font-size: 28px; margin: 0 0 8px; }
    .header p { color: rgba(255,255,255,0.9); font-size: 16px; margin: 0; }
    .content { padding: 40px 30px; }
    .greeting { font-size: 18px; color: #1a202c; margin-bottom: 24px; }
    .description { font-size: 16px; color: #4a5568; line-height: 1.6; margin-bottom: 32px; }
    .features { background: #f7fafc; border-radius: 12px; padding: 24px; margin: 32px 0; }
    .feature-item { margin: 12px 0; color: #4a5568; }
    .cta-section { text-align: center; margin: 40px 0; }
    .cta-button { display: inline-block; background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white !important; padding: 16px 32px; text-decoration: none; border-radius: 8px; font-weight: 600; }
    .footer { background: #2d3748; color: #a0aec0; padding: 30px; text-align: center; font-size: 14px; }
  </style>
</head>
<body>
  <div class="email-container">
    <div class="header">
      <h1>📊 Weekly Analytics Report</h1>
      <p>Your customer insights are ready</p>
    </div>
    <div class="content">
      <div class="greeting">Hello {{.CompanyName}} 👋</div>
      <div class="description">
        Your weekly consolidated InstaReview report is now available. This report highlights actionable insights gathered from your customer reviews over the past week, helping you identify trends and areas of improvement quickly.
      </div>
      <div class="features">
        <h3>📊 What's inside this report:</h3>
        <div class="feature-item">📈 Key performance highlights and metrics</div>
        <div class="feature-item">💡 Actionable insights and recommendations</div>
        <div class="feature-item">📊 Customer sentiment trends analysis</div>
        <div class="feature-item">⭐ Detailed analytics and visual charts</div>
      </div>
      <div class="cta-section">
        <a href="{{.ReportURL}}" class="cta-button">📥 Download Your Report</a>
      </div>
      <p style="color: #4a5568;">💻 Access your dashboard anytime at <a href="https://app.instareview.ai/">app.instareview.ai</a></p>
      <p style="color: #4a5568;"><strong>Best regards,</strong><br>The InstaReview Team</p>
    </div>
    <div class="footer">
      <div style="color: white; font-weight: 600;">InstaReview.ai</div>
      <div>© {{.Year}} InstaReview.ai. All rights reserved.</div>
    </div>
  </div>
</body>
</html>
`))

var textTmpl = template.Must(template.New("report-email-text").Parse(`Hello {{.CompanyName}},

Your weekly consolidated InstaReview report is now available. This report highlights actionable insights gathered from your customer reviews over the past week, helping you identify trends and areas of improvement quickly.

What's inside:
- Key performance highlights and metrics
- Actionable insights and recommendations
- Customer sentiment trends analysis
- Detailed analytics and visual charts

Download your report here: {{.ReportURL}}

Access your dashboard anytime at: https://app.instareview.ai/

Best regards,
The InstaReview Team
`))
