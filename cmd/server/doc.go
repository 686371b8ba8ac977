// Hemat - Receipt Analytics and Purchase Recommendation Engine
// Copyright 2026 Hemat Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hematlabs/hemat

/*
Package main is the entry point for the Hemat server.

Hemat turns OCR'd shop receipts into purchase history, RFM customer
segments, cohort-based product recommendations, and a geo-proximity
ranking of those recommendations.

The server runs under a suture v4 supervision tree:

	RootSupervisor ("hemat")
	├── StorageSupervisor ("storage-layer")
	│   └── archive-gc (badger value-log GC, when archiving is enabled)
	└── APISupervisor ("api-layer")
	    └── http-server (chi router under /api/v1)

Configuration is layered: built-in defaults, then a YAML file (CONFIG_PATH
or the standard lookup paths), then environment variables such as
SERVER_PORT and SECURITY_JWT_SECRET.
*/
package main
