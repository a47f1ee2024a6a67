package seventv

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/emote-tools/emotesync/internal/logging"
	"github.com/emote-tools/emotesync/internal/model"
)

// DefaultEndpoint is the production 7TV v4 GraphQL endpoint.
const DefaultEndpoint = "https://7tv.io/v4/gql"

// DefaultTimeout bounds a single API round trip.
const DefaultTimeout = 30 * time.Second

const fetchSetQuery = `
	query EmoteSetByID($id: Id!) {
		emoteSets {
			emoteSet(id: $id) {
				capacity
				id
				name
				emotes {
					items {
						emote {
							defaultName
							flags {
								private
							}
							id
						}
						alias
						id
					}
					totalCount
				}
				owner {
					editors {
						editorId
					}
					id
				}
			}
		}
	}
`

const addEmoteQuery = `
	mutation AddEmoteToSet($setId: Id! $emote: EmoteSetEmoteId!) {
		emoteSets {
			emoteSet(id: $setId) {
				addEmote(id: $emote) {
					id
				}
			}
		}
	}
`

const removeEmoteQuery = `
	mutation RemoveEmoteFromSet($setId: Id! $emote: EmoteSetEmoteId!) {
		emoteSets {
			emoteSet(id: $setId) {
				removeEmote(id: $emote) {
					id
				}
			}
		}
	}
`

// Client talks to the 7TV GraphQL API. All methods issue a single POST
// with a {query, variables} body and honor the passed context.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// New creates a client for the given endpoint. An empty endpoint or
// zero timeout selects the defaults.
func New(endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type gqlExtensions struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type gqlError struct {
	Message    string         `json:"message"`
	Extensions *gqlExtensions `json:"extensions"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

// FetchSet retrieves a snapshot of an emote set. A missing set is
// reported as (nil, nil); any transport or HTTP failure becomes a
// *RetrievalError.
func (c *Client) FetchSet(ctx context.Context, setID string) (*model.EmoteSet, error) {
	logging.Debug("fetching emote set", logging.Set(setID), logging.Operation("fetch"))

	resp, err := c.post(ctx, "", gqlRequest{
		Query:     fetchSetQuery,
		Variables: map[string]any{"id": setID},
	})
	if err != nil {
		return nil, &RetrievalError{SetID: setID, Err: err}
	}

	var data struct {
		EmoteSets struct {
			EmoteSet *model.EmoteSet `json:"emoteSet"`
		} `json:"emoteSets"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, &RetrievalError{SetID: setID, Err: fmt.Errorf("malformed response: %w", err)}
	}

	if data.EmoteSets.EmoteSet == nil {
		logging.Debug("emote set not found", logging.Set(setID))
		return nil, nil
	}

	return data.EmoteSets.EmoteSet, nil
}

// AddEmote adds an emote to a set under the given alias. An empty alias
// keeps the emote's default name. The call is not idempotent: a retried
// add after a lost response may duplicate the remote mutation.
func (c *Client) AddEmote(ctx context.Context, token, setID, emoteID, alias string) error {
	logging.Debug("adding emote",
		logging.Set(setID),
		logging.Emote(emoteID),
		logging.Alias(alias),
		logging.Operation("add"),
	)

	var aliasVal any
	if alias != "" {
		aliasVal = alias
	}

	resp, err := c.post(ctx, token, gqlRequest{
		Query: addEmoteQuery,
		Variables: map[string]any{
			"setId": setID,
			"emote": map[string]any{"emoteId": emoteID, "alias": aliasVal},
		},
	})
	if err != nil {
		return err
	}
	if len(resp.Errors) > 0 {
		return classify("add emote", resp.Errors[0], true)
	}
	return nil
}

// RemoveEmote removes an emote from a set. Like AddEmote, the call is
// not idempotent.
func (c *Client) RemoveEmote(ctx context.Context, token, setID, emoteID string) error {
	logging.Debug("removing emote",
		logging.Set(setID),
		logging.Emote(emoteID),
		logging.Operation("remove"),
	)

	resp, err := c.post(ctx, token, gqlRequest{
		Query: removeEmoteQuery,
		Variables: map[string]any{
			"setId": setID,
			"emote": map[string]any{"emoteId": emoteID},
		},
	})
	if err != nil {
		return err
	}
	if len(resp.Errors) > 0 {
		// Removals never map BAD_REQUEST or LOAD_ERROR; those codes
		// fall through to APIError, matching the upstream contract.
		return classify("remove emote", resp.Errors[0], false)
	}
	return nil
}

// post issues one GraphQL round trip. A non-nil token is attached as a
// bearer credential. Network faults and non-2xx statuses come back as
// *TransportError.
func (c *Client) post(ctx context.Context, token string, payload gqlRequest) (*gqlResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &TransportError{Op: "encode request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Op: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "post", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{Op: "post", Status: resp.StatusCode}
	}

	var out gqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &TransportError{Op: "decode response", Err: err}
	}
	return &out, nil
}

// classify maps a GraphQL error to the taxonomy. The "emote not found"
// message match is an explicit compatibility rule: the API reports
// missing emotes by message text only, so the match is fragile against
// upstream rewording but must be preserved as-is. Conflict and capacity
// codes are only meaningful for adds.
func classify(op string, e gqlError, addSemantics bool) error {
	if strings.Contains(strings.ToLower(e.Message), "emote not found") {
		return ErrEmoteNotFound
	}

	if e.Extensions == nil {
		return &APIError{Op: op, Message: e.Message}
	}

	code := e.Extensions.Code
	message := strings.TrimSpace(strings.TrimPrefix(e.Extensions.Message, code))

	switch code {
	case "LACKING_PRIVILEGES":
		return ErrUnauthorized
	case "BAD_REQUEST":
		if addSemantics {
			return ErrConflict
		}
	case "LOAD_ERROR":
		if addSemantics {
			return ErrCapacity
		}
	}

	return &APIError{Op: op, Code: code, Message: message}
}
