// Package harness runs YAML scenarios against the report assembler.
//
// # Scenario Format
//
//	name: auth_lib_upgrades
//	description: "What this scenario validates"
//	facts: ./facts            # optional, relative to the scenario file
//	steps:
//	  - query:
//	      package: auth-lib
//	      from: 2.1.0
//	      to: 2.2.0
//	      ecosystem: pip
//	      context: User Service
//	    expect:
//	      bump: minor
//	      direction: upgrade
//	      focus: User Service
//	      contains:
//	        compatibility: ["incompatible"]
//	      not_contains:
//	        security: ["WARNING"]
//	      counts:
//	        compatibility: 1
//	  - query: {package: auth-lib, from: "", to: 2.2.0}
//	    expect:
//	      invalid_input: true
//	assertions:
//	  - type: history_count
//	    count: 1
//	  - type: history_order
//	    packages: [auth-lib]
//
// Every step is assembled twice and the two reports must be identical.
// Successful steps are recorded as conversation turns in a fresh in-memory
// store so history assertions can check what a chat session would hold.
package harness
