/*
Package status owns every write to the local trees and records what happened.

	+-------------+      +-------------+
	|   Manager   | ---> |   Tracker   |
	| (one tree)  |      |  (summary)  |
	+-------------+      +-------------+

🎯 Purpose:
- Creates parent directories on demand and writes files atomically
- Classifies each write as new, modified or unchanged by checksum
- Walks a tree depth-first for the copy phase
- Renders a per-tree summary table at the end of a run

Every filesystem failure is wrapped with ErrFilesystem so callers can tell it
apart from transport failures.
*/
package status
