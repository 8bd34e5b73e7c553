// Package ssb is a local stand-in for the peer-to-peer network driver: it
// keeps an append-only log per feed in sqlite and exposes incoming messages
// as streams.
package ssb

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/google/uuid"
)

var ErrInvalidContent = errors.New("invalid content")

// FeedID identifies a feed, for example "@abc.ed25519".
type FeedID string

// MsgID identifies a message, for example "%abc.sha256".
type MsgID string

const TypePost = "post"

// Content is the payload a scene asks the network to publish.
type Content struct {
	Type string
	Text string
}

func (c Content) Validate() error {
	switch c.Type {
	case TypePost:
		if strings.TrimSpace(c.Text) == "" {
			return fmt.Errorf("post without text: %w", ErrInvalidContent)
		}
	default:
		return fmt.Errorf("type %q: %w", c.Type, ErrInvalidContent)
	}
	return nil
}

// Post builds post content.
func Post(text string) Content {
	return Content{Type: TypePost, Text: text}
}

// Msg is a published message as stored in a feed.
type Msg struct {
	Key       MsgID
	Author    FeedID
	Sequence  int64
	Timestamp time.Time
	Content   Content
}

// MsgKey is deterministic in author and sequence so a replayed append keeps its key.
func MsgKey(author FeedID, sequence int64) MsgID {
	id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%s:%d", author, sequence)))
	return MsgID("%" + base64.RawURLEncoding.EncodeToString(id[:]) + ".sha256")
}

// DeriveFeedID builds a stable local identity from seed.
func DeriveFeedID(seed string) FeedID {
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte("mmmmm:"+seed))
	return FeedID("@" + base64.RawURLEncoding.EncodeToString(id[:]) + ".ed25519")
}

// Short abbreviates a feed id for display to at most eleven cells.
func (f FeedID) Short() string {
	return ansi.Truncate(string(f), 11, "…")
}
