// Hemat - Receipt Analytics and Purchase Recommendation Engine
// Copyright 2026 Hemat Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hematlabs/hemat

// Package config loads the Hemat configuration with Koanf v2 from three
// layered sources, in rising precedence: built-in defaults, an optional
// YAML file, and environment variables. Every setting is reachable from
// all three layers.
package config
