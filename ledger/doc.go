// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package ledger provides the transaction entities, typed hashes, and the
// deterministic hashing pipeline built on top of the cbor and cddl packages.
//
// Entities decoded from the wire retain their original bytes, and every hash
// function prefers those bytes over a re-encode. This is what keeps computed
// transaction ids, datum hashes, and auxiliary data hashes identical to what
// the chain committed to, even when a peer produced a non-canonical
// encoding. Entities constructed locally are hashed over their canonical
// encoding instead.
//
// The script data hash and the PlutusV1 language views reproduce historical
// encoding quirks exactly; see HashScriptData and CostModels.LanguageViews.
package ledger
