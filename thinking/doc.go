// Package thinking negotiates the experimental deep-thinking request flag.
//
// When deep thinking is enabled for a call, the flag enable_thinking=true is
// injected into the request's extra parameters. Providers that reject the
// flag fail with an error that [Classify] recognizes as
// [KindUnsupportedParameter]; the call is then retried exactly once without
// the flag and a warning is returned alongside the result. Any other error,
// and any failure of the retry, propagates unchanged.
//
//	completion, warnings, err := thinking.CreateCompletion(ctx, backend, profile, model, params, nil)
//
// The same negotiation covers stream establishment through [OpenStream].
// Errors raised after the first chunk has been received are not retried.
package thinking
