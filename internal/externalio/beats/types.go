// Package beats forwards stats snapshots to an optional lumberjack
// (Elastic Beats wire protocol) endpoint, implementing stats.Forwarder.
package beats

import (
	lumberjack "github.com/elastic/go-lumber/client/v2"
)

// OutModule owns one lumberjack client connection.
type OutModule struct {
	sink *lumberjack.SyncClient
}
