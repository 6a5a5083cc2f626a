package petstore

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

// ============================================================================
// Pet Operations
// ============================================================================

// AddPet creates a new pet listing and returns the stored record.
func (c *Client) AddPet(ctx context.Context, pet Pet) (Pet, error) {
	return request[Pet](ctx, c, http.MethodPost, "/pet", WithJSON(pet))
}

// UpdatePet replaces an existing pet listing.
func (c *Client) UpdatePet(ctx context.Context, pet Pet) (Pet, error) {
	return request[Pet](ctx, c, http.MethodPut, "/pet", WithJSON(pet))
}

// GetPetByID fetches a single pet.
func (c *Client) GetPetByID(ctx context.Context, petID int64) (Pet, error) {
	return request[Pet](ctx, c, http.MethodGet, "/pet/{petId}",
		WithPathParam("petId", strconv.FormatInt(petID, 10)),
	)
}

// FindPetsByStatus lists pets in any of the given statuses.
func (c *Client) FindPetsByStatus(ctx context.Context, statuses ...string) ([]Pet, error) {
	return request[[]Pet](ctx, c, http.MethodGet, "/pet/findByStatus",
		WithQuery("status", statuses...),
	)
}

// FindPetsByTags lists pets carrying any of the given tags.
func (c *Client) FindPetsByTags(ctx context.Context, tags ...string) ([]Pet, error) {
	return request[[]Pet](ctx, c, http.MethodGet, "/pet/findByTags",
		WithQuery("tags", tags...),
	)
}

// UpdatePetWithForm updates a pet's name and status via form fields. Empty
// fields are omitted and left unchanged.
func (c *Client) UpdatePetWithForm(ctx context.Context, petID int64, name, status string) error {
	form := url.Values{}
	if name != "" {
		form.Set("name", name)
	}
	if status != "" {
		form.Set("status", status)
	}
	return requestNoContent(ctx, c, http.MethodPost, "/pet/{petId}",
		WithPathParam("petId", strconv.FormatInt(petID, 10)),
		WithForm(form),
	)
}

// DeletePet removes a pet listing. Pass WithAPIKey to carry the legacy
// api_key header some deployments require on deletes.
func (c *Client) DeletePet(ctx context.Context, petID int64, opts ...RequestOption) error {
	opts = append([]RequestOption{
		WithPathParam("petId", strconv.FormatInt(petID, 10)),
	}, opts...)
	return requestNoContent(ctx, c, http.MethodDelete, "/pet/{petId}", opts...)
}

// WithAPIKey sets the api_key request header.
func WithAPIKey(key string) RequestOption {
	return WithHeader("api_key", key)
}

// UploadFile attaches an image to a pet via a multipart form upload and
// returns the server's status blob. additionalMetadata is optional and sent
// as a plain form field when non-empty.
func (c *Client) UploadFile(
	ctx context.Context,
	petID int64,
	additionalMetadata, filename string,
	file io.Reader,
) (APIResponse, error) {
	var fields map[string]string
	if additionalMetadata != "" {
		fields = map[string]string{"additionalMetadata": additionalMetadata}
	}
	return request[APIResponse](ctx, c, http.MethodPost, "/pet/{petId}/uploadImage",
		WithPathParam("petId", strconv.FormatInt(petID, 10)),
		WithMultipartFile("file", filename, file, fields),
	)
}
