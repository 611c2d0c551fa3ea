package aggregator

import (
	"fmt"
	"strings"

	"github.com/erraggy/restspec/apierrors"
	"github.com/erraggy/restspec/internal/httputil"
	"github.com/erraggy/restspec/model"
)

// Option is a function that configures an aggregation.
type Option func(*config) error

type config struct {
	info        model.Info
	servers     []model.Server
	tags        []model.Tag
	schemes     []model.SecurityScheme
	oauth2      *model.OAuth2Flows
	baseURL     string
	bodyMethods map[string]bool
	logger      Logger
}

func applyOptions(opts ...Option) (*config, error) {
	cfg := &config{
		info:        model.Info{Title: "API documentation", Version: "1.0.0"},
		baseURL:     "http://localhost",
		bodyMethods: make(map[string]bool),
		logger:      NopLogger{},
	}
	for _, m := range httputil.DefaultBodyMethods {
		cfg.bodyMethods[m] = true
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// WithInfo sets the document title, version, description and contact.
// Empty title and version keep their defaults.
func WithInfo(info model.Info) Option {
	return func(c *config) error {
		if info.Title == "" {
			info.Title = c.info.Title
		}
		if info.Version == "" {
			info.Version = c.info.Version
		}
		c.info = info
		return nil
	}
}

// WithServers sets the servers the API is reachable at.
func WithServers(servers ...model.Server) Option {
	return func(c *config) error {
		for _, s := range servers {
			if strings.TrimSpace(s.URL) == "" {
				return &apierrors.ConfigError{Option: "servers", Message: "server without URL"}
			}
		}
		c.servers = append(c.servers, servers...)
		return nil
	}
}

// WithTags supplies tag descriptions.
func WithTags(tags ...model.Tag) Option {
	return func(c *config) error {
		c.tags = append(c.tags, tags...)
		return nil
	}
}

// WithSecuritySchemes declares additional security schemes, or replaces a
// built-in one with the same name.
func WithSecuritySchemes(schemes ...model.SecurityScheme) Option {
	return func(c *config) error {
		for _, s := range schemes {
			if s.Name == "" {
				return &apierrors.ConfigError{Option: "security_schemes", Message: "scheme without name"}
			}
		}
		c.schemes = append(c.schemes, schemes...)
		return nil
	}
}

// WithOAuth2 configures the flows of the built-in oauth2 scheme.
func WithOAuth2(flows model.OAuth2Flows) Option {
	return func(c *config) error {
		for _, f := range flows.Flows {
			switch f {
			case model.FlowAuthorizationCode, model.FlowImplicit:
				if flows.AuthorizationURL == "" {
					return &apierrors.ConfigError{Option: "oauth2.authorization_url", Message: fmt.Sprintf("required by the %s flow", f)}
				}
			case model.FlowClientCredentials, model.FlowPassword:
			default:
				return &apierrors.ConfigError{Option: "oauth2.flows", Value: f, Message: "unknown flow"}
			}
		}
		c.oauth2 = &flows
		return nil
	}
}

// WithBaseURL sets the URL Postman requests are sent to. It must be an
// absolute URL or start with a {{variable}} host.
func WithBaseURL(u string) Option {
	return func(c *config) error {
		if _, err := httputil.ParseBaseURL(u); err != nil {
			return &apierrors.ConfigError{Option: "base_url", Value: u, Cause: err}
		}
		c.baseURL = strings.TrimSpace(u)
		return nil
	}
}

// WithBodyMethods replaces the methods for which a missing request body is
// reported. The default is POST, PUT and PATCH.
func WithBodyMethods(methods ...string) Option {
	return func(c *config) error {
		c.bodyMethods = make(map[string]bool, len(methods))
		for _, m := range methods {
			if !httputil.IsKnownMethod(m) {
				return &apierrors.ConfigError{Option: "body_methods", Value: m, Message: "unknown method"}
			}
			c.bodyMethods[httputil.NormalizeMethod(m)] = true
		}
		return nil
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l Logger) Option {
	return func(c *config) error {
		if l == nil {
			l = NopLogger{}
		}
		c.logger = l
		return nil
	}
}
