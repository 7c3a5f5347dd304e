// Package notifier announces newly seen listings.
//
// Listings are first turned into Messages (EventMessage, ScholarshipMessage)
// and then handed to a Notifier: DryRunNotifier prints them, Telegram posts
// them to a chat through the Bot API and TwitterNotifier tweets them.
package notifier
