// Package schema provides the built-in travel application form and loads
// custom form definitions from JSON or YAML.
//
// A definition file may override individual field specs and replace the stage
// list entirely:
//
//	id: visa
//	title: Visa Application
//	startStage: 1
//	fields:
//	  phone:
//	    placeholder: "(000)-000-0000"
//	stages:
//	  - id: contact
//	    title: Contact
//	    sections:
//	      - id: phone-label
//	        label: Phone
//	        class: input-label
//	    mounts:
//	      - kind: phone
//	        anchor: phone-label
//	        position: afterend
//	        required: true
//
// Field specs missing from the file fall back to the defaults, and every
// loaded form is sanitised and validated before it is returned.
package schema
