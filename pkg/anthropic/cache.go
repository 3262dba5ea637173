package anthropic

// CachedSystemBlocks wraps a system prompt in a single block with an
// ephemeral cache breakpoint. An empty ttl uses the API default (5m).
func CachedSystemBlocks(text, ttl string) []SystemBlock {
	return []SystemBlock{{
		Text:         text,
		CacheControl: &CacheControl{TTL: ttl},
	}}
}
