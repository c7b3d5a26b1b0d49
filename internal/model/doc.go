// Package model provides the loader-agnostic Go representation of the
// declarations that make up a load balancer configuration.
//
// The model is built around a few key structures:
//
//   - Grid: the root container for everything declared in one run's input
//     files: proxy sections and locally declared balancer members.
//
//   - Section: one declared configuration block (global, defaults,
//     frontend, listen, or backend), carrying its options, mode, ordering
//     affinity (defaults group), and how it attaches to the network.
//
//   - Binding: a tagged variant constructed at parse time. A section either
//     binds through an address plus ports or through an explicit bind map;
//     the illegal "both" and "neither" states are rejected by the
//     constructor instead of being checked downstream.
//
//   - Member: one balancer member of a section, declared either locally in
//     a grid file or remotely through the member store.
//
// The package performs declaration-level validation only. Name conflicts
// are a property of a target file's fragment registry and are detected at
// registration time, not here.
package model
