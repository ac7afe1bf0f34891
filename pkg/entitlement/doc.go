// Package entitlement answers "does this plan have capability X" and shapes
// response payloads accordingly.
//
// HasAccess resolves a boolean flag from the plan catalog. An unknown flag
// name is a programming error and returns ErrUnknownFlag instead of a silent
// false, so a code/catalog mismatch fails loudly in tests rather than
// quietly downgrading paying users in production.
//
// ProjectTitles degrades generated title candidates for plans without CTR
// scoring: predicted CTR becomes zero and recommendation text becomes fixed
// upsell copy. Fields are substituted, never omitted - the response shape is
// identical across tiers so clients never branch on plan.
package entitlement
