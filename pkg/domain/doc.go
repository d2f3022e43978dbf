/*
Package domain contains the core domain models for the node-development engine.

It defines the entities shared by the flattener, the reconciler and the
registry adapters. This package is kept pure and free of external dependencies
like I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - Document: An order-preserving tree of mappings, sequences and scalars.
  - FlatEntry / FlatResult: The output of flattening a Document.
  - SlotSpec / Outcome: The units the reconciler creates and reports against
    the parameter registry.
*/
package domain
