// Package yaml_adapter loads graph definitions written as flow documents:
//
//	nodes:
//	  - task: extract_audio
//	    node_id: extract
//	    inputs_from:
//	      - handle: video_file
//	        value: /media/in.mp4
//	      - handle: output_format
//	        from_node:
//	          - node_id: settings
//	            output_handle: format
//
// A `value` key that is missing means no literal; `value: ""` and
// `value: null` are explicit but empty literals, which the resolver treats as
// absent.
package yaml_adapter
