// Package obb builds and compares oriented bounding box (OBB) vehicle
// footprints.
//
// Responsibilities: front-bumper/centre pose conversion, four-corner
// footprint construction, minimum separation between footprints (1:1, N:N
// and 1:N), sorted nearest-target queries, and the squared-radius candidate
// pre-filter with an optional R-tree index.
// Key types: Pose, Dimensions, Footprint, Engine, Target, CandidateIndex.
//
// Conventions: positions in metres, headings in degrees with 0 along +x and
// counter-clockwise positive. Footprint corners are always ordered
// front-left, front-right, rear-right, rear-left.
//
// Everything here is a pure function of its inputs. No logging or I/O is
// allowed in this package.
package obb
