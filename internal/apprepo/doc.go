// Package apprepo manages the local mirror of the active app catalog.
//
// The active catalog URL comes from the persisted user record, falling back
// to DefaultURL. Its mirror lives under the repos directory in a folder named
// by ComputeID. A mirror is Absent, Valid or Corrupt; the state is probed on
// every Update and a corrupt mirror is deleted and cloned again.
//
// Concurrent invocations against the same mirror are not coordinated.
package apprepo
