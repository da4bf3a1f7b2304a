package pkg

import (
	"crypto/tls"
	"fmt"
	"html"
	"time"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string // 发件人邮箱
	Password string // 授权码/密码
	From     string // 显示的发件人，可与 Username 相同
}

type Mailer struct {
	cfg SMTPConfig
}

func NewMailer(cfg SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) Message(to, subject, htmlBody string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)
	return msg
}

func (m *Mailer) Send(to, subject, htmlBody string) error {
	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: m.cfg.Host}
	return d.DialAndSend(m.Message(to, subject, htmlBody))
}

// SignupNoticeHTML 新用户注册时发给管理员的通知
func SignupNoticeHTML(username, name string, at time.Time) string {
	return fmt.Sprintf(`<p>새 회원이 가입했습니다.</p><p>아이디: <b>%s</b><br>이름: <b>%s</b><br>가입 시각: %s</p>`,
		html.EscapeString(username), html.EscapeString(name), at.Format("2006-01-02 15:04:05 MST"))
}
