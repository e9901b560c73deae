package checker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openrdap/rdap"
)

const rdapSource = "rdap"

// DefaultRDAPTimeout bounds a single RDAP query.
const DefaultRDAPTimeout = 10 * time.Second

// RDAPClient performs registration lookups over RDAP with bootstrap server
// discovery handled by the underlying client.
type RDAPClient struct {
	Client  *rdap.Client
	Timeout time.Duration
}

// Lookup queries RDAP for the domain's registration record.
func (c *RDAPClient) Lookup(ctx context.Context, domain string) (*Registration, error) {
	value := strings.ToLower(strings.TrimSpace(domain))
	if value == "" {
		return nil, errors.New("domain is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	req := rdap.NewDomainRequest(value)
	timeout := DefaultRDAPTimeout
	if c != nil && c.Timeout > 0 {
		timeout = c.Timeout
	}
	req.Timeout = timeout
	req = req.WithContext(ctx)

	client := &rdap.Client{}
	if c != nil && c.Client != nil {
		client = c.Client
	}

	resp, err := client.Do(req)
	if err != nil {
		if isObjectNotFound(err) {
			return nil, ErrNoRecord
		}
		return nil, fmt.Errorf("rdap lookup failed: %w", err)
	}

	obj, ok := resp.Object.(*rdap.Domain)
	if !ok || obj == nil {
		return nil, fmt.Errorf("unexpected rdap response for %s", value)
	}

	return &Registration{
		Domain:       value,
		CreationDate: findEventDate(obj.Events, "registration"),
		Registrar:    findRegistrar(obj),
		Statuses:     obj.Status,
		Source:       rdapSource,
	}, nil
}

func isObjectNotFound(err error) bool {
	var clientErr *rdap.ClientError
	if !errors.As(err, &clientErr) {
		return false
	}
	return clientErr.Type == rdap.ObjectDoesNotExist
}

func findEventDate(events []rdap.Event, action string) string {
	for _, event := range events {
		if event.Action == action {
			return event.Date
		}
	}
	return ""
}

func findRegistrar(domain *rdap.Domain) string {
	if domain == nil {
		return ""
	}
	for _, entity := range domain.Entities {
		for _, role := range entity.Roles {
			if role == "registrar" && entity.VCard != nil {
				return entity.VCard.Name()
			}
		}
	}
	return ""
}
