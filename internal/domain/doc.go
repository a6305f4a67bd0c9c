// Package domain contains the core entities of the application:
// learners, their per-item mastery ledgers, daily progress records,
// and the learner profile aggregate that ties them together.
//
// Domain types carry their own validation and are persistence-agnostic.
// The rules that evolve these types live in the domain/srs,
// domain/progression, and domain/achievement packages.
package domain
