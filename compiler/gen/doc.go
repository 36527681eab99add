// Package gen turns a directed graph of named states and transitions into
// Go source whose API makes illegal states and transitions unrepresentable.
//
// A Graph is assembled with a Builder (or by a front end in
// compiler/parse), validated with Validate, and emitted with a Generator.
// For a machine named TrafficLight the generated artifact contains:
//
//   - TrafficLightState, a tag with one constant per vertex;
//   - TrafficLight, the state storage, constructed at any vertex through
//     per-vertex constructors;
//   - TrafficLightEntry, a sealed interface returned by the Entry
//     accessor, with one case type per vertex: terminal vertices yield
//     plain values, active vertices yield handles whose methods are the
//     only legal transitions.
//
// The pipeline is a pure function of the graph and a Config; nothing is
// retained across invocations and independent graphs may be generated
// concurrently.
package gen
