// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the fable story server.
//
// The server streams narrative text over chunked text/plain responses. The
// provisional text streams token by token until the literal sentinel "<END>";
// everything after the sentinel is the authoritative final text, with
// " <BREAK> " tokens marking paragraph boundaries. The X-Conversation-ID
// response header carries the server-assigned conversation id.
//
// # Key Types
//
//   - Client: HTTP client with pooled connections for generate and story CRUD
//   - StreamReader: chunk-boundary-safe decoder for the sentinel-framed stream
//   - GenerateResult: final text plus conversation id for one generation
//
// # Usage
//
// Stream a generation, printing deltas as they arrive:
//
//	client := api.NewClient("http://localhost:5000", 10*time.Second)
//	result, err := client.Generate(ctx, "open the door", 0, func(delta string) {
//	    fmt.Print(delta)
//	})
//
// # Stream framing
//
// A chunk boundary may fall anywhere: inside a multi-byte rune, inside the
// sentinel, or inside a break token. StreamReader holds back undecided
// trailing bytes so that emitted deltas always concatenate to exactly the
// pre-sentinel text, regardless of chunking.
package api
