// Package harness runs conformance scenarios against the query executor.
//
// A scenario seeds a fresh store from a graph fixture and runs a list of
// cases, each one query with the ids it must return in order.
//
// # Scenario Format
//
//	name: scenario_name
//	description: "What this scenario validates"
//	fixture: ../fixtures/graph.yaml
//	cases:
//	  - name: text contains
//	    filter: {value: {property: P_TEXT, text: {contains: Hello}}}
//	    space: S1
//	    expect: [E1, E2]
//	  - name: relations of one type
//	    query: relations
//	    relation: {typeId: T1}
//	    expect: [R1, R2]
//	  - name: ranked name search
//	    query: search
//	    term: ali
//	    expect: [E1]
//	  - name: negative offset
//	    offset: -1
//	    expect_error: input
//
// The fixture path is relative to the scenario file. Filters are written as
// YAML and decoded through the same JSON form the HTTP surface accepts.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/filters.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(ctx, scenario)
//	if !result.Pass {
//	    for _, e := range result.Errors {
//	        log.Println(e)
//	    }
//	}
package harness
