/*
Package hwsim provides a naive, cycle-stepped hardware simulator used to run
designs under test and sample their output pins once per clock cycle.

A circuit is built from parts (see PartSpec) composed into chips with Chip.
Wire states are double buffered: every component reads the states set during
the previous step and writes the states for the next one, so combinational
paths take one step per part to propagate. A clock signal is provided on the
"clk" pin; clocked components use Circuit.AtTick to detect its raising edge.

The part library lives in package hwlib.
*/
package hwsim
