// Package action implements the luxctl action store.
//
// An action is a command bound to an illuminance threshold (level, in lux)
// inside a named scope. For a given reading, every scope independently
// selects its action with the highest level not above the reading; scopes
// with no such action select nothing.
//
// Architecture:
//
//	┌────────────────────────────────────────────────────┐
//	│                 Runner (runner.go)                  │
//	│  reading ─▶ Select ─▶ order by delay ─▶ Executor    │
//	│                 │                       │           │
//	│                 ▼                       ▼           │
//	│  ┌──────────────────────┐      Observer (MQTT,      │
//	│  │ SQLiteRepository      │       InfluxDB)          │
//	│  │ scopes ◀── actions    │                          │
//	│  │ (FK, ON DELETE CASCADE)│                         │
//	│  └──────────────────────┘                           │
//	└────────────────────────────────────────────────────┘
//
// # Key Types
//
//   - Scope: a named partition of actions; id 0 is always "Default"
//   - Action: level, scope name, delay and command as supplied by the operator
//   - Entry: a stored action joined with its scope, as listed and selected
//   - Runner: select-and-run orchestration over a Repository and an Executor
//
// # Usage
//
//	repo := action.NewSQLiteRepository(db.DB)
//	if err := repo.Bootstrap(ctx); err != nil {
//	    return err
//	}
//
//	runner := action.NewRunner(repo, executor, logger)
//	cycle, err := runner.Run(ctx, level)
package action
