package service

import (
	"context"
	"errors"
	"time"

	"github.com/useinsider/go-pkg/inslogger"
)

// DispatchResult is the synchronous outcome of one gateway call. Accepted never means delivered.
type DispatchResult struct {
	Accepted          bool
	ProviderMessageID string
	ErrorCode         string
	NotConfigured     bool
}

type Dispatcher interface {
	Send(ctx context.Context, phone, token string, withLink bool) DispatchResult
}

type DispatcherOptions struct {
	CountryCode   string
	PublicBaseURL string
	Timeout       time.Duration
}

type dispatcher struct {
	sender    MessageSender
	rotator   TemplateRotator
	shortener LinkShortener
	logger    inslogger.Interface
	opts      DispatcherOptions
}

func NewDispatcher(
	sender MessageSender,
	rotator TemplateRotator,
	shortener LinkShortener,
	logger inslogger.Interface,
	opts DispatcherOptions,
) Dispatcher {
	if opts.CountryCode == "" {
		opts.CountryCode = "55"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &dispatcher{
		sender:    sender,
		rotator:   rotator,
		shortener: shortener,
		logger:    logger,
		opts:      opts,
	}
}

func (d *dispatcher) Send(ctx context.Context, phone, token string, withLink bool) DispatchResult {
	if !d.sender.Configured() {
		d.logger.Warn("SMS gateway credentials not configured, skipping dispatch")
		return DispatchResult{NotConfigured: true, ErrorCode: GatewayErrNotConfigured}
	}

	ctx, cancel := context.WithTimeout(ctx, d.opts.Timeout)
	defer cancel()

	body := d.buildMessage(ctx, token, withLink)
	providerID, err := d.sender.SendMessage(ctx, InternationalPhone(phone, d.opts.CountryCode), body)
	if err != nil {
		var gwErr *GatewayError
		code := GatewayErrUnreachable
		if errors.As(err, &gwErr) {
			code = gwErr.Code
		}
		d.logger.Warnf("SMS dispatch rejected: %v", err)
		return DispatchResult{ErrorCode: code, NotConfigured: code == GatewayErrNotConfigured}
	}

	return DispatchResult{Accepted: true, ProviderMessageID: providerID}
}

func (d *dispatcher) buildMessage(ctx context.Context, token string, withLink bool) string {
	if !withLink {
		return d.rotator.Pick(TemplatesNoLink)
	}

	link := LongURL(d.opts.PublicBaseURL, token)
	if code, err := d.shortener.CreateShortCode(ctx, token); err != nil {
		d.logger.Warnf("Link shortener failed, sending long URL: %v", err)
	} else {
		link = d.shortener.BuildPublicURL(code)
	}

	return d.rotator.Render(d.rotator.Pick(TemplatesWithLink), link)
}
