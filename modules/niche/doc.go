// Package niche implements niche discovery: on-demand market analysis for a
// creator's search criteria and the daily hot-niche feed. Both are flag-gated
// plan features rather than metered quotas. The feed blends real YouTube
// channel statistics with AI trend analysis and is cached per day and region,
// and a daily digest email goes out to subscribed users.
package niche
