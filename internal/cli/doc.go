// Package cli implements the procctl command-line interface.
//
// # Command Structure
//
//	procctl              - Interactive process browser across all hosts
//	procctl --dry-run    - List each host once and report reachability
//	procctl hosts        - Print the resolved host table (--yaml for YAML)
//	procctl version      - Version information
//	procctl completion   - Shell completion scripts
//
// # Host Selection
//
// Host-selection flags are persistent so `hosts` resolves exactly what the
// browser would:
//
//	-c, --remote-config    host file (name:address:port:username:password:type)
//	-s, --remote-server    ad-hoc remote host
//	-l, --login            ad-hoc user@host
//	-t, --connexion-type   ssh or telnet for the ad-hoc host
//	-P, --port             port for the ad-hoc host
//	-u, --username         username for the ad-hoc host
//	-p, --password         password for the ad-hoc host
//	-a, --all              keep the local machine alongside remote hosts
//
// When an ad-hoc host is given without credentials and stdin is a terminal,
// the missing username and password are prompted for.
package cli
