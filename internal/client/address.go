package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/vijay-dubey/QuickCart-Microservices-sub001/internal/domain"
	"github.com/vijay-dubey/QuickCart-Microservices-sub001/pkg/httpclient"
)

// AddressClient is the adapter for the address service.
//
// The observed service contract drifts between two naming conventions
// (name vs recipient_name, zip_code vs postal_code). The translation lives
// entirely in this adapter; the rest of the service sees only the canonical
// domain.Address field set.
type AddressClient struct {
	baseURL string
	http    HTTPDoer
	logger  *slog.Logger
}

// NewAddressClient creates an address service adapter.
func NewAddressClient(baseURL string, doer HTTPDoer, logger *slog.Logger) *AddressClient {
	return &AddressClient{baseURL: baseURL, http: doer, logger: logger}
}

// wireAddress tolerates both field naming conventions on decode and emits
// the canonical names on encode.
type wireAddress struct {
	ID            string `json:"id,omitempty"`
	RecipientName string `json:"recipient_name,omitempty"`
	Name          string `json:"name,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Email         string `json:"email,omitempty"`
	Line1         string `json:"line1,omitempty"`
	Line2         string `json:"line2,omitempty"`
	Street        string `json:"street,omitempty"`
	City          string `json:"city,omitempty"`
	State         string `json:"state,omitempty"`
	PostalCode    string `json:"postal_code,omitempty"`
	ZipCode       string `json:"zip_code,omitempty"`
	Country       string `json:"country,omitempty"`
	Landmark      string `json:"landmark,omitempty"`
	Category      string `json:"category,omitempty"`
	IsDefault     bool   `json:"is_default"`
}

func (w wireAddress) toDomain() domain.Address {
	recipient := w.RecipientName
	if recipient == "" {
		recipient = w.Name
	}
	postal := w.PostalCode
	if postal == "" {
		postal = w.ZipCode
	}
	return domain.Address{
		ID:            w.ID,
		RecipientName: recipient,
		Phone:         w.Phone,
		Email:         w.Email,
		Line1:         w.Line1,
		Line2:         w.Line2,
		Street:        w.Street,
		City:          w.City,
		State:         w.State,
		PostalCode:    postal,
		Country:       w.Country,
		Landmark:      w.Landmark,
		Category:      w.Category,
		IsDefault:     w.IsDefault,
	}
}

func toWire(a domain.Address) wireAddress {
	return wireAddress{
		ID:            a.ID,
		RecipientName: a.RecipientName,
		Phone:         a.Phone,
		Email:         a.Email,
		Line1:         a.Line1,
		Line2:         a.Line2,
		Street:        a.Street,
		City:          a.City,
		State:         a.State,
		PostalCode:    a.PostalCode,
		Country:       a.Country,
		Landmark:      a.Landmark,
		Category:      a.Category,
		IsDefault:     a.IsDefault,
	}
}

type wireAddressEnvelope struct {
	Data wireAddress `json:"data"`
}

type wireAddressListEnvelope struct {
	Data []wireAddress `json:"data"`
}

// List fetches the full address set for the user.
func (c *AddressClient) List(ctx context.Context, userID string) ([]domain.Address, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/addresses", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create list addresses request: %w", err)
	}
	req.Header.Set(userHeader, userID)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, httpclient.ClassifyTransportError("address", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, "address")
	}

	var envelope wireAddressListEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode address list: %w", err)
	}

	addresses := make([]domain.Address, len(envelope.Data))
	for i, w := range envelope.Data {
		addresses[i] = w.toDomain()
	}
	return addresses, nil
}

// Create saves a new address and returns it with its server-assigned id.
func (c *AddressClient) Create(ctx context.Context, userID string, address domain.Address) (domain.Address, error) {
	return c.send(ctx, userID, http.MethodPost, c.baseURL+"/api/addresses", address)
}

// Update replaces the stored address with the given id.
func (c *AddressClient) Update(ctx context.Context, userID, id string, address domain.Address) (domain.Address, error) {
	return c.send(ctx, userID, http.MethodPut, c.baseURL+"/api/addresses/"+id, address)
}

// Delete removes the address with the given id.
func (c *AddressClient) Delete(ctx context.Context, userID, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/addresses/"+id, http.NoBody)
	if err != nil {
		return fmt.Errorf("create delete address request: %w", err)
	}
	req.Header.Set(userHeader, userID)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return httpclient.ClassifyTransportError("address", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return httpclient.ParseResponseError(resp, "address")
	}
	return nil
}

// SetDefault makes the address with the given id the sole default. The
// service contract exposes this as a dedicated endpoint; default flags
// cannot be flipped through a general update.
func (c *AddressClient) SetDefault(ctx context.Context, userID, id string) (domain.Address, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/addresses/"+id+"/default", http.NoBody)
	if err != nil {
		return domain.Address{}, fmt.Errorf("create set default request: %w", err)
	}
	req.Header.Set(userHeader, userID)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return domain.Address{}, httpclient.ClassifyTransportError("address", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return domain.Address{}, httpclient.ParseResponseError(resp, "address")
	}

	var envelope wireAddressEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return domain.Address{}, fmt.Errorf("decode set default response: %w", err)
	}
	return envelope.Data.toDomain(), nil
}

func (c *AddressClient) send(ctx context.Context, userID, method, url string, address domain.Address) (domain.Address, error) {
	body, err := json.Marshal(toWire(address))
	if err != nil {
		return domain.Address{}, fmt.Errorf("marshal address: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return domain.Address{}, fmt.Errorf("create address request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(userHeader, userID)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return domain.Address{}, httpclient.ClassifyTransportError("address", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return domain.Address{}, httpclient.ParseResponseError(resp, "address")
	}

	var envelope wireAddressEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return domain.Address{}, fmt.Errorf("decode address response: %w", err)
	}
	return envelope.Data.toDomain(), nil
}
