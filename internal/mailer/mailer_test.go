package mailer

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"task-management-backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_PicksImplementation(t *testing.T) {
	assert.IsType(t, &LogMailer{}, New(config.MailConfig{}, zap.NewNop()))
	assert.IsType(t, &SMTPMailer{}, New(config.MailConfig{Host: "smtp.example.com", Port: 587}, zap.NewNop()))
}

func TestSMTPMailer_Send(t *testing.T) {
	m := NewSMTPMailer(config.MailConfig{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "bot@example.com",
		Password: "secret",
		From:     "bot@example.com",
	}, zap.NewNop())

	var gotAddr, gotFrom string
	var gotTo []string
	var gotBody []byte
	var gotAuth smtp.Auth
	m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotAuth, gotFrom, gotTo, gotBody = addr, a, from, to, msg
		return nil
	}

	err := m.Send(context.Background(), Message{
		To:      []string{"a@example.com", "b@example.com"},
		Subject: "Reminder Created",
		Text:    "hello",
	})
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.NotNil(t, gotAuth)
	assert.Equal(t, "bot@example.com", gotFrom)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, gotTo)
	body := string(gotBody)
	assert.Contains(t, body, "To: a@example.com, b@example.com\r\n")
	assert.Contains(t, body, "Subject: Reminder Created\r\n")
	assert.True(t, strings.HasSuffix(body, "\r\n\r\nhello"))
}

func TestSMTPMailer_Errors(t *testing.T) {
	m := NewSMTPMailer(config.MailConfig{Host: "smtp.example.com", Port: 25}, zap.NewNop())
	m.send = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}

	assert.Error(t, m.Send(context.Background(), Message{Subject: "x"}))

	err := m.Send(context.Background(), Message{To: []string{"a@example.com"}})
	assert.ErrorContains(t, err, "connection refused")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.Send(ctx, Message{To: []string{"a@example.com"}}), context.Canceled)
}

func TestLogMailer_Send(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	m := NewLogMailer(zap.New(core))

	require.NoError(t, m.Send(context.Background(), Message{To: []string{"a@example.com"}, Subject: "s", Text: "t"}))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "s", logs.All()[0].ContextMap()["subject"])
}
