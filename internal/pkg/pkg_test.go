package pkg

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"Hyeyum_Board/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassword(t *testing.T) {
	digest, err := HashPassword("pass")
	require.NoError(t, err)
	assert.NotEqual(t, "pass", digest)
	assert.True(t, CheckPassword(digest, "pass"))
	assert.False(t, CheckPassword(digest, "Pass"))
	assert.False(t, CheckPassword("not-a-digest", "pass"))
}

func TestL(t *testing.T) {
	assert.Equal(t, "로그인 정보가 올바르지 않습니다.", L("ko", MsgLoginFailed))
	assert.Equal(t, "Invalid login credentials.", L("en", MsgLoginFailed))
	// unknown locale falls back to the bundle default
	assert.Equal(t, "Invalid login credentials.", L("fr", MsgLoginFailed))
	assert.Equal(t, "no.such.message", L("ko", "no.such.message"))
}

func TestLocalesAreComplete(t *testing.T) {
	ids := []string{
		MsgLoginFailed, MsgLoginRequired, MsgSignupBlank, MsgSignupTaken, MsgSignupDone, MsgSignupTooLong,
		MsgPostBlank, MsgPostTooLong, MsgPostCreated, MsgPostUpdated, MsgPostDeleted, MsgStoreUnavailable,
		MsgLoggedOut, MsgForbidden, MsgNotFound, MsgInternal, MsgPageNewPost, MsgPageEditPost,
	}
	for _, locale := range []string{"en", "ko"} {
		for _, id := range ids {
			assert.NotEqual(t, id, L(locale, id), "%s missing in %s", id, locale)
		}
	}
}

func TestSignupNoticeHTML(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 30, 0, 0, model.KST)
	body := SignupNoticeHTML("writer", "<Writer>", at)
	assert.Contains(t, body, "<b>writer</b>")
	assert.Contains(t, body, "&lt;Writer&gt;")
	assert.Contains(t, body, "2024-03-01 09:30:00 KST")
}

func TestMailer_Message(t *testing.T) {
	m := NewMailer(SMTPConfig{Host: "smtp.example.com", Port: 587, From: "Board <no-reply@example.com>"})
	msg := m.Message("admin@example.com", "new member", "<p>hi</p>")

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "To: admin@example.com")
	assert.Contains(t, out, "Subject: new member")
	assert.True(t, strings.Contains(out, "text/html"))
}

func TestMakeKeyFromID(t *testing.T) {
	assert.Equal(t, "42", MakeKeyFromID(42))
}

func TestNewKafkaProducer(t *testing.T) {
	p := NewKafkaProducer(KafkaConfig{Brokers: []string{"127.0.0.1:9092"}, Topic: "board-events"})
	defer p.Close()

	assert.Equal(t, "board-events", p.writer.Topic)
	assert.False(t, p.writer.Async)
	assert.Equal(t, 5*time.Second, p.writer.WriteTimeout)
}
