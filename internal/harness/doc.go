// Package harness runs survey scenarios against the demo store.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: pick_an_answer
//	description: "Selecting an answer unlocks the next step"
//	survey:
//	  id: s1
//	  steps:
//	    - type: question
//	      id: q1
//	      text: "Pick one"
//	      answers:
//	        - id: a1
//	          text: "Yes"
//	    - type: content
//	      id: c1
//	      text: "Thanks"
//	steps:
//	  - action: toggle_answer
//	    answer: a1
//	assertions:
//	  - type: can_go_next
//	    step: q1
//	    expect: true
//
// # Steps
//
//   - toggle_answer: selects answer, deselecting its siblings
//   - set_rating: gives rating the value
//   - set_text: sets the text of the step or answer named by id
//   - set_user: sets the user name
//
// # Assertion Types
//
//   - can_go_next, can_go_previous: navigation from step (bool)
//   - selected: selection of answer (bool)
//   - rating_value: value of rating (int, or null for no value)
//   - total_steps: number of steps of the survey (int)
//   - step_index: position of step (int, -1 when absent)
//   - user_name: name of the user (string)
//
// # Deterministic Testing
//
// Every run uses a fresh in-memory history database, a fresh logical clock
// and a sequence id generator, so traces and snapshots are identical across
// runs. RunWithGolden compares them against testdata/golden.
package harness
