// Package resolver selects the launch URL of a package's user interface.
//
// Selection works on two inputs: the package's manifest interfaces and its
// installed address table. The first interface flagged as UI, in catalog
// order, is the user interface. Its address is then chosen by a fixed policy:
//
//  1. If the session is not an anonymity-network session and the UI supports a
//     local address, launch "https://" + local address.
//  2. Otherwise launch "http://" + anonymity address.
//
// Local addresses are always offered over https because the device's reverse
// proxy terminates TLS on the LAN. Onion addresses are always offered over
// http because Tor already encrypts the circuit end to end.
//
// Missing data is not an error: no UI interface, no table entry or an empty
// address all resolve to "". Callers gate on HasUI or IsLaunchable first.
// The one exception is an installed package with no address table at all,
// which is reported as ErrMissingAddressTable.
package resolver
