// Package billing connects Paddle subscriptions to plan tiers. The webhook
// endpoint is the single writer of a user's tier: subscription lifecycle
// events map the purchased price to a tier and update the profile, and
// cancellations drop the user back to the free plan. The module also serves
// the public plan catalog for the pricing page.
package billing
