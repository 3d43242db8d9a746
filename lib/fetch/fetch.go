// Package fetch is the HTTP edge of the scrapers. It owns nothing about
// page structure, it hands back raw bodies for the extraction layer to pick
// apart.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"gradescope-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

// Fetcher is what the scraping layer sees. Implementations carry their own
// session state; callers just name endpoints relative to the platform base
// url.
type Fetcher interface {
	Get(ctx context.Context, endpoint string) (Response, error)
	PostForm(ctx context.Context, endpoint string, form url.Values) (Response, error)
}

type Response struct {
	Status int
	Body   []byte
}

type Options struct {
	BaseUrl string
	// session cookies to present on every request. acquiring these is the
	// caller's problem, this package does no login negotiation.
	Cookies map[string]string
}

// Client is a resty-backed Fetcher with a cookie jar, a cloudflare bypass
// transport, and otel instrumentation on every request.
type Client struct {
	baseUrl *url.URL
	http    *resty.Client
}

func NewClient(opts Options) (*Client, error) {
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(time.Second * 30)

	for name, value := range opts.Cookies {
		client.SetCookie(&http.Cookie{
			Name:   name,
			Value:  value,
			Domain: baseUrl.Hostname(),
		})
	}

	telemetry.InstrumentResty(client, "gradescope.lib.fetch")

	return &Client{
		baseUrl: baseUrl,
		http:    client,
	}, nil
}

func (c *Client) Get(ctx context.Context, endpoint string) (Response, error) {
	res, err := c.http.R().
		SetContext(ctx).
		Get(endpoint)
	if err != nil {
		return Response{}, err
	}
	if res.StatusCode() >= 400 {
		return Response{}, fmt.Errorf("GET %s: status %d", endpoint, res.StatusCode())
	}
	return Response{Status: res.StatusCode(), Body: res.Body()}, nil
}

func (c *Client) PostForm(ctx context.Context, endpoint string, form url.Values) (Response, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetBody(form.Encode()).
		Post(endpoint)
	if err != nil {
		return Response{}, err
	}
	return Response{Status: res.StatusCode(), Body: res.Body()}, nil
}
