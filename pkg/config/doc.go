/*
Package config loads and validates the mirror configuration.

	            +-------------+
	            |   Default   |
	            | (built-in)  |
	            +------+------+
	                   |
	     +-------------+-------------+
	     |             |             |
	+----+----+   +----+----+   +----+----+
	|  YAML   |   |   HCL   |   |  JSON   |
	+---------+   +---------+   +---------+

🎯 Purpose:
- Provides the built-in gervill setup (remote roots, local trees, renames)
- Overlays an optional config file on top of the defaults
- Validates and normalizes paths before anything touches the network

🔄 Flow:
1. Start from Default()
2. Decode the file with the parser picked by extension
3. Validate()

🔍 Example HCL:

	source {
	  kind = "github"
	  repo = "openjdk/jdk8u"
	  ref  = "master"
	  path = "jdk/src/share/classes"
	}

	roots          = ["javax/sound/midi"]
	exclusion_file = "${env.HOME}/.gervill-exclude"
*/
package config
