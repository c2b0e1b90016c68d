package services

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

const (
	smsPreviewRunes = 140
	// smsTimeout bounds each Twilio HTTP request, and with it the goroutine
	// Notify leaves behind when its context ends first.
	smsTimeout = 8 * time.Second
)

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// SMSNotifier texts a short preview of each contact message via Twilio.
type SMSNotifier struct {
	api    messageCreator
	from   string
	to     string
	logger zerolog.Logger
}

func NewSMSNotifier(accountSID, authToken, from, to string) *SMSNotifier {
	return newSMSNotifier(newTwilioClient(accountSID, authToken).Api, from, to)
}

func newTwilioClient(accountSID, authToken string) *twilio.RestClient {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	client.SetTimeout(smsTimeout)
	return client
}

func newSMSNotifier(api messageCreator, from, to string) *SMSNotifier {
	return &SMSNotifier{
		api:    api,
		from:   from,
		to:     to,
		logger: log.With().Str("service", "sms").Logger(),
	}
}

func (n *SMSNotifier) Name() string { return "sms" }

// Notify sends the SMS. The Twilio client has no context support, so the
// call runs in its own goroutine and ctx only bounds how long we wait.
func (n *SMSNotifier) Notify(ctx context.Context, msg models.ContactMessage) error {
	if n.from == "" || n.to == "" {
		return errs.NewNotificationError(n.Name(), 0, errs.ErrNotifierNotConfigured)
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(n.to)
	params.SetFrom(n.from)
	params.SetBody(smsBody(msg))

	type result struct {
		sid string
		err error
	}
	done := make(chan result, 1)
	go func() {
		resp, err := n.api.CreateMessage(params)
		var sid string
		if resp != nil && resp.Sid != nil {
			sid = *resp.Sid
		}
		done <- result{sid: sid, err: err}
	}()

	select {
	case <-ctx.Done():
		return errs.NewNotificationError(n.Name(), 0, ctx.Err())
	case r := <-done:
		if r.err != nil {
			return errs.NewNotificationError(n.Name(), 0, r.err)
		}
		n.logger.Info().Str("sid", r.sid).Msg("Sent contact SMS via Twilio")
		return nil
	}
}

func smsBody(msg models.ContactMessage) string {
	preview := msg.Message
	if utf8.RuneCountInString(preview) > smsPreviewRunes {
		preview = string([]rune(preview)[:smsPreviewRunes]) + "…"
	}
	return fmt.Sprintf("Portfolio message from %s <%s>: %s", msg.FullName, msg.Email, preview)
}
