// meta/meta.go
package meta

// GO_ROUTINES defines the number of trials run at once.
const GO_ROUTINES = 8

// TRIALS defines the number of trials of a playout run.
const TRIALS = 100

// MAX_TURNS defines the turn limit after which a trial is abandoned.
const MAX_TURNS = 300

// SEED defines the seed of the first trial.
const SEED = 1

// PLAYOUTS defines the random playouts per move of the Monte Carlo agent.
const PLAYOUTS = 20
