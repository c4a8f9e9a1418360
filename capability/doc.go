// Package capability resolves which input modalities a (profile, model) pair
// supports.
//
// Resolution runs in priority order and stops as soon as every flag is known:
//
//  1. the profile's explicit declaration, when complete, wins outright
//  2. the explicit declaration merged over the cached record
//  3. a keyword heuristic over the provider's model metadata
//  4. a one-token live probe carrying a tiny image, for image support only
//  5. safe defaults: text supported, everything else unsupported
//
// Results that required detection are written back to a [Store]. The JSON
// [FileStore] is the default; [MemoryStore] and [RedisStore] are provided for
// tests and for sharing a cache between processes.
//
//	resolver := capability.NewResolver(capability.NewFileStore(capability.DefaultCachePath))
//	caps, err := resolver.Resolve(ctx, profile, "gpt-4o-mini", backend)
package capability
