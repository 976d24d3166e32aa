// Package dispatch allocates electrical demand across a fleet of generating
// units at least cost for a single hour snapshot.
//
// Allocation runs in two stages:
//  1. The block group (LVPS coal units) takes a fixed block of up to
//     CeilingMW, in steps of StepMW per unit, never running a unit below
//     its minimum block.
//  2. Remaining demand is filled in merit order: ascending cost, ties kept
//     in declaration order, each unit up to its available capacity.
//
// Demand the fleet cannot cover is reported as unmet demand in the result;
// it is not an error.
//
// The Manager wraps the Allocator with availability resolution and the
// side-effects of a dispatch run: record storage, metrics, setpoint
// publishing and event bus notifications.
package dispatch
