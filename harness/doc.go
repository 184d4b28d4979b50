// Package harness manages the process pair for a single test case: launch
// ordering, concurrent output capture, scripted stdin feeding and bounded
// teardown.
//
// Exactly one client and one server process live at a time. The server is
// launched first and given a settle delay before the client starts; one
// capturer task drains each process's combined output; the feeder then
// paces the scripted inputs into the client. After the script is exhausted
// a drain grace period lets trailing output flush before any still-live
// process is terminated. All waits are bounded: a hung child is killed,
// a stuck capturer is abandoned, and the pair always ends Terminated.
package harness
