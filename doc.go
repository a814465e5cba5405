// Package langbly is the official Go client for the Langbly translation API,
// a drop-in replacement for Google Translate v2 powered by LLMs.
//
// A Client exposes the three API operations behind typed methods:
//
//	client, err := langbly.New("lb-...")
//	if err != nil {
//		// invalid configuration
//	}
//	defer client.Close()
//
//	tr, err := client.Translate(ctx, "Hello, world!", "nl", nil)
//	batch, err := client.TranslateBatch(ctx, []string{"one", "two"}, "de", nil)
//	det, err := client.Detect(ctx, "Bonjour")
//	langs, err := client.Languages(ctx, "en")
//
// Transient failures (rate limits, 5xx, network errors) are retried with
// exponential backoff, honoring server-supplied Retry-After delays.
// Deterministic failures (bad credentials, invalid input, undecodable
// responses) are surfaced immediately. Every failure is an *Error carrying a
// Kind, so callers can branch:
//
//	if apiErr, ok := langbly.AsError(err); ok && apiErr.Kind == langbly.KindRateLimit {
//		time.Sleep(apiErr.RetryAfter)
//	}
package langbly

// Version is the client library version, reported in the User-Agent header.
const Version = "0.1.0"
