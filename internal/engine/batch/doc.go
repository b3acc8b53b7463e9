// Package batch evaluates many dwelling records concurrently.
//
// Records are independent: the Runner schedules them on a bounded errgroup,
// chunk by chunk, and collects one Result per record in input order. A
// failing or panicking record is reported in its own Result and never
// cancels its siblings.
package batch
