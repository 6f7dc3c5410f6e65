// Package spawn finds agent spawn directives in command files and renders
// the instructions the host orchestrator follows to launch them.
//
// A directive looks like:
//
//	**Spawn @code-scout with mission:**
//	```
//	Find the bug
//	```
//
// Directives are grouped by the nearest preceding "## Phase N" heading, and
// each group is rendered as a batch of agents to spawn in parallel.
package spawn
