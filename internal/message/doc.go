// Package message defines the command record exchanged between a launcher
// and a running editor instance.
//
// A [Command] carries an ordered list of files to open and an ordered list of
// named arguments. On the wire it is serialised as UTF-8 XML:
//
//	<edipc>
//	  <filelist><file value="/home/u/a.txt"/></filelist>
//	  <arglist><arg name="g" value="42"/></arglist>
//	</edipc>
//
// Values travel in attributes, not element text. Unknown elements and
// attributes are ignored when parsing so that newer launchers can talk to
// older instances.
package message
