/*
Package ports defines the driven ports (interfaces) of the turing engine.

These interfaces decouple the command line and the servers from storage
implementations.

# Key Interfaces

  - ProgramStore: persists named machine encodings (memory, file, redis).
*/
package ports
