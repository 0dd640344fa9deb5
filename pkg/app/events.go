// Package app composes the snapshot into the bar's three zones and runs the
// bubbletea model that draws them and turns clicks and keys into commands.
package app

import "gitlab.com/tinyland/lab/qqbar/pkg/snapshot"

// SnapshotEvent carries a new snapshot from the aggregator into the
// bubbletea update loop. It is sent with tea.Program.Send from the
// aggregator's subscriber.
type SnapshotEvent struct {
	Snapshot *snapshot.Snapshot
}
