// Package password implements Argon2id password hashing with the standard
// PHC string format ($argon2id$v=19$m=...,t=...,p=...$salt$hash).
//
// Digests are salted per call, so hashing the same password twice never
// yields the same string. Verification embeds no parameter assumptions: the
// cost parameters and salt are read back out of the stored digest, and the
// comparison is constant time. Malformed digests verify as false rather than
// erroring, so a corrupted hash column cannot become an oracle.
package password
