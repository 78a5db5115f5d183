package model

// Package model defines domain data structures shared across the bot: background
// job states, per-job progress snapshots, extracted link metadata, published clip
// entries and the ephemeral pack-managing session with its explicit states.
