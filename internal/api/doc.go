// Package api provides the HTTP client for the Imou OpenAPI cloud service.
//
// It wraps the vendor's signed-envelope JSON protocol with Imou Core-specific
// patterns for token management, request signing, and error classification.
//
// # Protocol
//
// Every call is an HTTP POST of a JSON envelope to {base_url}/{endpoint}:
//
//	{
//	  "system": {"ver": "1.0", "appId": "...", "sign": "...", "time": ..., "nonce": "..."},
//	  "id": "<request id>",
//	  "params": { ... }
//	}
//
// The sign field is the MD5 hex digest of "time:{time},nonce:{nonce},appSecret:{secret}"
// as mandated by the vendor. Responses carry a result envelope:
//
//	{"result": {"code": "0", "msg": "...", "data": { ... }}}
//
// A code of "0" is success; "TK1002" means the access token expired and the
// client transparently re-authenticates and retries once. Any other code is
// surfaced as ErrAPIError.
//
// # Token Lifecycle
//
// Connect() obtains an access token via the accessToken endpoint. The token is
// injected into the params of every subsequent call and refreshed shortly
// before its reported expiry.
//
// # Usage
//
//	client := api.NewClient(cfg.API, logger)
//	if err := client.Connect(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	data, err := client.DeviceBaseList(ctx)
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines. Token
// refresh is serialised internally.
package api
